package exitcode

const (
	Success            = 0
	UsageError         = 1
	ValidationError    = 2
	ReferenceDataError = 3
	WriteError         = 4
	FatalError         = 5
	OCRError           = 6
)
