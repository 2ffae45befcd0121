// Package config provides the run configuration of docproof: where the
// project dump lives, where artifacts are written, how examples are
// materialized and how the example runner is invoked.
package config
