package storage

import "encoding/binary"

// Key schema for Pebble storage
//
//   ord:<8-byte big-endian seq> → Order (JSON)
//
// Sequence numbers grow with every append, so a prefix scan returns open
// orders in placement order.

const prefixOrder = "ord:"

// orderKey returns the key for the order appended at seq
func orderKey(seq uint64) []byte {
	k := make([]byte, len(prefixOrder)+8)
	copy(k, prefixOrder)
	binary.BigEndian.PutUint64(k[len(prefixOrder):], seq)
	return k
}

// orderSeq extracts the sequence number from an order key
func orderSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(prefixOrder):])
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
