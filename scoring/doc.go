// Package scoring defines the interchange record for persisted scoring output
// and reads and writes it as zstd-compressed newline-delimited JSON.
//
// Field names, types and nullability are fixed for downstream consumers:
//
//	uid              optional string
//	label            optional double
//	modelId          string, required
//	predictionScore  double, required
//	weight           optional double, default null
//	metadataMap      optional map of string to string
package scoring
