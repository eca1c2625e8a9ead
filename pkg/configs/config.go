package configs

import (
	"time"
)

// Configuration for the imputecalls tool.
//
// to get `ImputeConfig` instance, use `ImputeConfigMarshall.TrySeal()` .
type ImputeConfig struct {
	database string
	table    string
	timezone *time.Location
	workers  int
	serve    *ServeConfig
}

// Connection string for the database, passed verbatim to the driver.
func (c *ImputeConfig) Database() string {
	return c.database
}

// Name of the table receiving imputed calls. default = "calls"
func (c *ImputeConfig) Table() string {
	return c.table
}

// Local timezone defining the bounds of a service day.
// default = America/New_York
func (c *ImputeConfig) Timezone() *time.Location {
	return c.timezone
}

// How many vehicles are processed in parallel within one day.
// Zero or less means "number of CPUs".
func (c *ImputeConfig) Workers() int {
	return c.workers
}

// Configuration for serve mode.
func (c *ImputeConfig) Serve() *ServeConfig {
	return c.serve
}

type ServeConfig struct {
	listen   string
	schedule string
}

// Listen address of the health endpoint. default = ":8080"
func (s *ServeConfig) Listen() string {
	return s.listen
}

// Cron expression scheduling the nightly imputation. default = "0 4 * * *"
func (s *ServeConfig) Schedule() string {
	return s.schedule
}
