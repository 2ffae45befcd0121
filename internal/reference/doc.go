// Package reference validates the cross references inside documentation:
// markdown links, rendered HTML links and @see entries.
//
// The sets of valid references (faker.number.int) and valid documentation
// links (/api/number.html#int) are derived once from the project modules and
// shared read-only between concurrent validations.
package reference
