package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	AppKey    ContextKey = "app"
	LoggerKey ContextKey = "logger"
	ParamsKey ContextKey = "params"
)

// Validate is the shared validator instance used by DTO Ok() checks.
var Validate = validator.New(validator.WithRequiredStructEnabled())
