package sql

import "database/sql"

// GetTxFromReviewRepo is a test helper to extract transaction from ReviewRepository.
func GetTxFromReviewRepo(repo *ReviewRepository) *sql.Tx {
	return repo.txn
}

// ClassifyError exposes classifyError to the external test package.
func ClassifyError(err error) error {
	return classifyError(err)
}
