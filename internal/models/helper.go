package models

import "gorm.io/datatypes"

func containsID(ids datatypes.JSONSlice[uint], id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AppendUniqueID returns ids with id appended, unless it is already present.
// Duplicate pushes are guarded explicitly so membership lists never
// accumulate repeated references.
func AppendUniqueID(ids datatypes.JSONSlice[uint], id uint) datatypes.JSONSlice[uint] {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

// RemoveID returns ids with every occurrence of id removed, preserving order.
func RemoveID(ids datatypes.JSONSlice[uint], id uint) datatypes.JSONSlice[uint] {
	out := make(datatypes.JSONSlice[uint], 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// MergeIDs appends the ids from src that dst does not already contain.
// Used when a deactivated teacher's courses are folded into the fallback
// account's list.
func MergeIDs(dst, src datatypes.JSONSlice[uint]) datatypes.JSONSlice[uint] {
	for _, id := range src {
		dst = AppendUniqueID(dst, id)
	}
	return dst
}
