// Package mapping resolves configvalue.Value references into concrete
// values and provides the per-plugin-kind DTO->domain mapping contract.
// Grounded on original_source/src/api/mappings/core/{resolver,mapper}.rs.
package mapping
