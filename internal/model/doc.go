// Package model defines the data structures shared by the docproof packages.
//
// The input side mirrors a reflected API dump of the documented library:
//   - Project: the root of one documentation run
//   - Module, Class, Method, Signature: the documented callables
//   - Comment, Tag, Parts: the documentation attached to them
//
// The output side holds what the pipeline derives from it:
//   - ExtractedTags, MethodInfo, ParameterInfo: per-callable documentation
//   - Page, PageDiff, PageIndexEntry, SearchRecord: rendered pages and indices
//   - Violation, CallableResult, VerificationReport: verification outcomes
//
// Input types are read-only after loading. Everything is serializable to JSON
// so it can be written as an artifact or stored in the baseline database.
package model
