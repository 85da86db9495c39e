package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	if _, err := Load("/nonexistent-dir-for-defaults/none.yaml"); err == nil {
		t.Fatal("explicit missing file should fail")
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Transport != "zmq" || cfg.Codec != "cbor" || cfg.IOThreads != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.Log.Output != "stdout" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Transport = "pigeon"
	if err := cfg.validate(); err == nil {
		t.Fatal("invalid transport accepted")
	}
	cfg = Default()
	cfg.Codec = "bencode"
	if err := cfg.validate(); err == nil {
		t.Fatal("invalid codec accepted")
	}
	cfg = Default()
	cfg.IOThreads = 0
	if err := cfg.validate(); err == nil {
		t.Fatal("zero io_threads accepted")
	}
	cfg = Default()
	cfg.Log.Level = "loud"
	if err := cfg.validate(); err == nil {
		t.Fatal("invalid log level accepted")
	}
}
