package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Feed.Symbol != "BTCUSDT" {
		t.Errorf("Feed.Symbol = %q, want BTCUSDT", c.Feed.Symbol)
	}
	if c.Signal.ShortMAPeriod != 10 || c.Signal.LongMAPeriod != 30 {
		t.Errorf("signal MA defaults = %d/%d, want 10/30",
			c.Signal.ShortMAPeriod, c.Signal.LongMAPeriod)
	}
	if c.Signal.RSIPeriod != 14 || c.Signal.MomentumPeriod != 10 || c.Signal.VolatilityPeriod != 20 {
		t.Errorf("indicator defaults wrong: %+v", c.Signal)
	}
	if c.Signal.MaxHistory != 1000 {
		t.Errorf("MaxHistory = %d, want 1000", c.Signal.MaxHistory)
	}
	if c.Tape.Backend != "none" {
		t.Errorf("Tape.Backend = %q, want none", c.Tape.Backend)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: test
feed:
  symbol: ETHUSDT
signal:
  short_ma_period: 5
  long_ma_period: 15
  max_history: 200
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Feed.Symbol != "ETHUSDT" {
		t.Errorf("Feed.Symbol = %q", c.Feed.Symbol)
	}
	if c.Signal.ShortMAPeriod != 5 || c.Signal.LongMAPeriod != 15 || c.Signal.MaxHistory != 200 {
		t.Errorf("overrides not applied: %+v", c.Signal)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("SYMBOL", "SOLUSDT")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "tape.test")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Feed.Symbol != "SOLUSDT" {
		t.Errorf("Feed.Symbol = %q, want SOLUSDT", c.Feed.Symbol)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[0] != "k1:9092" {
		t.Errorf("Kafka.Brokers = %v", c.Kafka.Brokers)
	}
	if c.Kafka.Topic != "tape.test" {
		t.Errorf("Kafka.Topic = %q", c.Kafka.Topic)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []string{
		"environment: test\nfeed:\n  source: carrier-pigeon\n",
		"environment: test\ntape:\n  backend: s3\n",
		"environment: test\ntape:\n  backend: kafka\n", // no brokers
		"environment: test\ntape:\n  backend: clickhouse\n",
		"environment: test\nsignal:\n  short_ma_period: 30\n  long_ma_period: 10\n",
	}
	for _, body := range cases {
		path := writeConfig(t, body)
		if _, err := Load(path); err == nil {
			t.Errorf("expected validation error for:\n%s", body)
		}
	}
}
