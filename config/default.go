package config

// DefaultConfigYAML is the built-in configuration, overridable by an
// external config file or WORKMM_* environment variables.
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "workmm"
  password: "workmm"
  dbname: "workmm"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 72

settlement:
  monthly_rent: 24500
  hourly_rates:
    maru: 275
    marty: 400
  deduction_rates:
    maru: 0.33333333
    marty: 0.5

log:
  level: "info"
`)
