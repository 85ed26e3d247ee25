package date

// DateError is the single error kind produced by this package. Every parse
// failure carries a human-readable message that callers surface directly.
type DateError string

func (e DateError) Error() string { return string(e) }

var (
	ErrBadSchedule    = DateError("couldn't parse schedule")
	ErrBadEndSchedule = DateError("couldn't parse ending schedule")
	ErrInvalidMonth   = DateError("invalid month")
	ErrInvalidDate    = DateError("invalid date")
	ErrInvalidEndDate = DateError("invalid end date")
)
