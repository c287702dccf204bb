package services

import "fmt"

// Key scheme: <namespace>.<scope>.<collection>.<version>. Versions are bumped
// on schema changes so stale blobs decode as absent instead of corrupt.
const (
	namespace = "householder"

	accountsVersion     = "v1"
	transfersVersion    = "v1"
	transactionsVersion = "v1"
	intentsVersion      = "v1"
	registryVersion     = "v1"
	usersVersion        = "v1"
	sessionVersion      = "v1"
)

func accountsKey(userID string) string {
	return fmt.Sprintf("%s.%s.accounts.%s", namespace, userID, accountsVersion)
}

func transfersKey(userID string) string {
	return fmt.Sprintf("%s.%s.transfers.%s", namespace, userID, transfersVersion)
}

func transactionsKey(userID string) string {
	return fmt.Sprintf("%s.%s.transactions.%s", namespace, userID, transactionsVersion)
}

func intentsKey(userID string) string {
	return fmt.Sprintf("%s.%s.transferIntents.%s", namespace, userID, intentsVersion)
}

func registryKey() string {
	return fmt.Sprintf("%s.registry.accounts.%s", namespace, registryVersion)
}

func usersKey() string {
	return fmt.Sprintf("%s.users.%s", namespace, usersVersion)
}

func sessionKey() string {
	return fmt.Sprintf("%s.currentUser.%s", namespace, sessionVersion)
}
