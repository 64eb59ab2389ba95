package jobs

import (
	"context"

	"github.com/ovcarj/appeer/internal/store"
)

// setJobColumn updates a single column on the job row keyed by label.
func setJobColumn(ctx context.Context, st *store.Store, table store.Table, label, column string, value any) error {
	return st.UpdateColumn(ctx, table, store.Row{"label": label}, column, value)
}

// setActionColumn updates a single column on the action row keyed by
// (label, action_index).
func setActionColumn(ctx context.Context, st *store.Store, table store.Table, label string, index int, column string, value any) error {
	return st.UpdateColumn(ctx, table, store.Row{"label": label, "action_index": index}, column, value)
}
