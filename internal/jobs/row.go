package jobs

import "github.com/ovcarj/appeer/internal/store"

func rowString(r store.Row, col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func rowInt(r store.Row, col string) int {
	v, ok := r[col]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}

func rowTriState(r store.Row, col string) TriState {
	return TriState(rowString(r, col))
}
