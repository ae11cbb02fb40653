package task

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeTransactionReconcile = "transaction:reconcile"

// ReconcilePayload targets a single transaction. An empty TransactionID
// asks the handler to sweep every completed transaction instead.
type ReconcilePayload struct {
	TransactionID string `json:"transaction_id,omitempty"`
}

func NewReconcileTask(p ReconcilePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTransactionReconcile, payload,
		asynq.Queue("low")), nil
}
