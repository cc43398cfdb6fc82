package errors

// Error codes, grouped per ErrorType.
const (
	// StatsAPIError (1000-1099)
	ErrStatsRequestFailed = 1000
	ErrStatsBadStatus     = 1001
	ErrStatsDecode        = 1002
	ErrStatsMissingColumn = 1003

	// MissingResourceError (1100-1199)
	ErrRawDirMissing     = 1100
	ErrCutListMissing    = 1101
	ErrMappingMissing    = 1102
	ErrBinaryUnavailable = 1103

	// PlayerResolutionError (1200-1299)
	ErrPlayerNotFound     = 1200
	ErrDirectoryLoad      = 1201
	ErrDirectoryCacheSave = 1202

	// DataJoinError (1300-1399)
	ErrNoMatchingCut    = 1300
	ErrNoMatchingRecord = 1301
	ErrBadCutTimes      = 1302

	// LedgerError (1400-1499)
	ErrLedgerRead  = 1400
	ErrLedgerWrite = 1401

	// MappingError (1500-1599)
	ErrMappingRead   = 1500
	ErrMappingWrite  = 1501
	ErrMappingHeader = 1502
	ErrLinksWrite    = 1503

	// MediaError (1600-1699)
	ErrFetchFailed = 1600
	ErrTrimFailed  = 1601
	ErrProbeFailed = 1602

	// ValidationError (1700-1799)
	ErrInvalidConfig  = 1700
	ErrInvalidSeason  = 1701
	ErrInvalidQuota   = 1702
	ErrInvalidCutList = 1703

	// SystemError (1800-1899)
	ErrCreateDirectory = 1800
	ErrWriteFile       = 1801
	ErrReadFile        = 1802
)
