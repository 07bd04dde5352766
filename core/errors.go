package core

import "errors"

var (
	ErrNoPeripheralClock   = errors.New("peripheral clock not set")
	ErrSamplesPerInterrupt = errors.New("samples per interrupt out of range")
	ErrNoChannels          = errors.New("no ADC channels selected")
	ErrChannelRange        = errors.New("ADC channel out of range")
	ErrScanGroupMismatch   = errors.New("scan channel count differs from samples per interrupt")
	ErrAcquisitionTime     = errors.New("acquisition time out of range")
	ErrRateUnreachable     = errors.New("sample rate unreachable with available divisors")
	ErrInterruptPriority   = errors.New("invalid interrupt priority")
	ErrNotRunning          = errors.New("sampler not running")

	ErrSectorRange   = errors.New("flash sector out of range")
	ErrAddressRange  = errors.New("flash address out of range")
	ErrFlashIdentity = errors.New("unexpected flash identification")
	ErrFlashRate     = errors.New("flash clock rate above fC")
	ErrFlashMode     = errors.New("flash requires SPI mode 0 or 3")
	ErrFlashBusy     = errors.New("flash write in progress")
	ErrBufferLength  = errors.New("tx and rx buffer lengths must match")
)

// InitError reports which initialization step failed.
type InitError struct {
	Step string
	Err  error
}

func (e *InitError) Error() string {
	return "init " + e.Step + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func initErr(step string, err error) error {
	return &InitError{Step: step, Err: err}
}
