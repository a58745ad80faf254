package stock

import "go.uber.org/fx"

// Module provides the stock ledger to the fx container.
var Module = fx.Provide(NewLedger)
