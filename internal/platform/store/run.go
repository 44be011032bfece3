package store

import "context"

// claimSQL exposes the acting user to row level policies the way PostgREST does
const claimSQL = `select set_config('request.jwt.claim.sub', $1, true)`

// RunAsUser runs fn in a transaction with request.jwt.claim.sub set to
// userID, so audit triggers and policies see who made the change. An empty
// userID runs without the claim
func RunAsUser(ctx context.Context, tx TxRunner, userID string, fn func(ctx context.Context, q RowQuerier) error) error {
	return tx.Tx(ctx, func(q RowQuerier) error {
		if userID != "" {
			if _, err := q.Exec(ctx, claimSQL, userID); err != nil {
				return err
			}
		}
		return fn(ctx, q)
	})
}
