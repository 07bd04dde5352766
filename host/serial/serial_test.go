package serial

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" || cfg.Baud != DefaultBaud || cfg.ReadTimeout != 0 {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("nil config accepted")
	}

	cfg := DefaultConfig("/dev/null")
	cfg.Baud = 0
	if _, err := Open(cfg); err == nil {
		t.Error("zero baud accepted")
	}

	if _, err := Open(DefaultConfig("/nonexistent/tty")); err == nil {
		t.Error("missing device opened")
	}
}
