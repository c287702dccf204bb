package services

// ServiceContainer bundles every service facade the application wires at
// startup, so entry points depend on one value instead of six constructors.
type ServiceContainer struct {
	Ledger      LedgerSvcFacade
	Transfer    TransferSvcFacade
	Transaction TransactionSvcFacade
	User        UserSvcFacade
	Session     SessionSvcFacade
	Calendar    CalendarSvcFacade
}
