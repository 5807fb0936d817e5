package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dexcore/internal/model"
)

// Store provides Postgres persistence for pool snapshots and receipts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPoolStates inserts or updates pool snapshots keyed by asset pair.
func (s *Store) UpsertPoolStates(ctx context.Context, states []model.PoolState) error {
	if len(states) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, st := range states {
		batch.Queue(`
			INSERT INTO pools (
				asset_a, asset_b, reserve_a, reserve_b, share_token, total_shares,
				swap_fee_bps, max_allowed_slippage_bps, max_allowed_spread_bps,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			ON CONFLICT (asset_a, asset_b)
			DO UPDATE SET
				reserve_a = EXCLUDED.reserve_a,
				reserve_b = EXCLUDED.reserve_b,
				total_shares = EXCLUDED.total_shares,
				swap_fee_bps = EXCLUDED.swap_fee_bps,
				max_allowed_slippage_bps = EXCLUDED.max_allowed_slippage_bps,
				max_allowed_spread_bps = EXCLUDED.max_allowed_spread_bps,
				updated_at = now()
		`,
			st.AssetA,
			st.AssetB,
			st.ReserveA.String(),
			st.ReserveB.String(),
			st.ShareToken,
			st.TotalShares.String(),
			int32(st.SwapFeeBps),
			int32(st.MaxAllowedSlippageBps),
			int32(st.MaxAllowedSpreadBps),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range states {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertReceipts appends operation receipts for one replay run.
func (s *Store) InsertReceipts(ctx context.Context, run string, receipts []model.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range receipts {
		var amountA, amountB, sharesOut, amountOut *string
		if r.AmountA != nil {
			v := r.AmountA.String()
			amountA = &v
		}
		if r.AmountB != nil {
			v := r.AmountB.String()
			amountB = &v
		}
		if r.Shares != nil {
			v := r.Shares.String()
			sharesOut = &v
		}
		if r.AmountOut != nil {
			v := r.AmountOut.String()
			amountOut = &v
		}
		batch.Queue(`
			INSERT INTO receipts (
				run, op_index, op, ok, error, amount_a, amount_b, shares, amount_out, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
			ON CONFLICT (run, op_index) DO NOTHING
		`,
			run,
			r.Index,
			r.Op,
			r.OK,
			r.Error,
			amountA,
			amountB,
			sharesOut,
			amountOut,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range receipts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
