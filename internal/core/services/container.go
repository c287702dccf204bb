package services

import (
	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/platform/config"
)

// NewServiceContainer creates the service container with properly wired
// dependencies. The transfer coordinator receives its expense recorder
// explicitly here; nothing resolves it from ambient state.
func NewServiceContainer(cfg *config.Config, store portsrepo.KVStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(store, WithMaxAccounts(cfg.MaxAccountsPerUser))
	container.Transaction = NewTransactionService(store)
	container.Transfer = NewTransferService(store, container.Ledger,
		WithExpenseRecorder(container.Transaction))
	container.User = NewUserService(store)
	container.Session = NewSessionService(store, WithDefaultUser(cfg.DefaultUserID))
	container.Calendar = NewCalendarService(container.Transaction)

	return container
}
