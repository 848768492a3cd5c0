package model

// UIDField is the IDs entry holding the external unique id of a datum.
const UIDField = "uid"

// RawDatum is the upstream per-entity training datum produced by the feature
// join. It carries one feature vector per feature shard.
type RawDatum struct {
	Response      float64           `json:"response"`
	Offset        float64           `json:"offset"`
	Weight        float64           `json:"weight"`
	FeatureShards map[string]Vector `json:"featureShards"`
	// IDs holds entity ids (random-effect ids, UIDField) keyed by id type.
	IDs map[string]string `json:"ids,omitempty"`
}

// FeatureVector returns the vector of the given feature shard.
func (d RawDatum) FeatureVector(shardID string) (Vector, bool) {
	v, ok := d.FeatureShards[shardID]
	return v, ok
}

// UID returns the external unique id, if any.
func (d RawDatum) UID() (string, bool) {
	uid, ok := d.IDs[UIDField]
	return uid, ok
}

// ToLabeledRecord projects the datum onto one feature shard.
// It fails with an error matching ErrUnknownFeatureShard when the shard is absent.
func (d RawDatum) ToLabeledRecord(key Key, shardID string) (LabeledRecord, error) {
	features, ok := d.FeatureVector(shardID)
	if !ok {
		return LabeledRecord{}, &ErrMissingFeatureShard{ShardID: shardID, Key: key}
	}
	return NewLabeledRecord(d.Response, features, d.Offset, d.Weight), nil
}

// SizeBytes approximates the heap bytes held by the datum.
func (d RawDatum) SizeBytes() int64 {
	var size int64
	for shard, v := range d.FeatureShards {
		size += int64(len(shard)) + 48 + v.SizeBytes()
	}
	for k, v := range d.IDs {
		size += int64(len(k)+len(v)) + 32
	}
	return size
}
