package constants

import "github.com/go-playground/validator/v10"

// Validate is the process-wide struct validator used by DTOs.
var Validate = validator.New()

type ContextKey string

const (
	PoolKey         ContextKey = "pool"
	TxKey           ContextKey = "tx"
	LoggerKey       ContextKey = "logger"
	ParamsKey       ContextKey = "params"
	IdentityKey     ContextKey = "identity"
	TenantIDKey     ContextKey = "tenantID"
	CorrelationKey  ContextKey = "correlationID"
	RequestStartKey ContextKey = "requestStart"
)
