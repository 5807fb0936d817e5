package storage

import "dexcore/internal/model"

// ReceiptSink is a sink for operation receipts.
type ReceiptSink interface {
	PutReceiptBatch(receipts []model.Receipt) error
}

// PoolStateSink is a sink for pool state snapshots.
type PoolStateSink interface {
	PutPoolStates(states []model.PoolState) error
}
