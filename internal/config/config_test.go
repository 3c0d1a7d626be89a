package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.AppPort != "8080" || c.MySQLDB != "lending" {
		t.Errorf("defaults = %+v", c)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("SWEEP_CRON", "0 0 3 * * *")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "9090" || c.MySQLHost != "db.internal" || c.SweepCron != "0 0 3 * * *" {
		t.Errorf("c = %+v", c)
	}
}

func TestValidateBadPort(t *testing.T) {
	t.Setenv("MYSQL_PORT", "not-a-port")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Fatal("want error for invalid MYSQL_PORT")
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{
		MySQLHost: "localhost", MySQLPort: "3306",
		MySQLDB: "lending", MySQLUser: "app", MySQLPass: "secret",
	}
	dsn := c.MySQLDSN()
	if !strings.HasPrefix(dsn, "app:secret@tcp(localhost:3306)/lending?") {
		t.Errorf("dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("dsn %q missing parseTime", dsn)
	}
}
