package analysis

import "errors"

var (
	// ErrSyncNotFound means no sample crossed the sync window. It stops the whole batch.
	ErrSyncNotFound = errors.New("sync temperature crossing not found")
	// ErrEmptyPlateau means no sample passed the stability test. The file gets no row.
	ErrEmptyPlateau = errors.New("no stable plateau samples found")
	// ErrPlateauUnstable marks a plateau shorter than the minimum duration. It is only a warning.
	ErrPlateauUnstable = errors.New("insufficient temperature stability")
)
