package configs

import (
	"fmt"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of the imputecalls tool.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `ImputeConfig`,
// given with `ImputeConfigMarshall.TrySeal()` .
type ImputeConfigMarshall struct {
	Database string               `yaml:"database"`
	Table    string               `yaml:"table,omitempty"`
	Timezone string               `yaml:"timezone,omitempty"`
	Workers  int                  `yaml:"workers,omitempty"`
	Serve    *ServeConfigMarshall `yaml:"serve,omitempty"`
}

var _ Marshalled[*ImputeConfig] = &ImputeConfigMarshall{}

func (m *ImputeConfigMarshall) TrySeal() *ImputeConfig {
	return m.trySeal("(root)")
}

func (m *ImputeConfigMarshall) trySeal(path string) *ImputeConfig {
	table := m.Table
	if table == "" {
		table = "calls"
	}
	tzname := m.Timezone
	if tzname == "" {
		tzname = "America/New_York"
	}
	tz, err := time.LoadLocation(tzname)
	if err != nil {
		panic(fmt.Errorf("%s.timezone can not be loaded: %w", path, err))
	}

	serve := m.Serve
	if serve == nil {
		serve = &ServeConfigMarshall{}
	}

	return &ImputeConfig{
		database: required(m.Database, path+".database"),
		table:    table,
		timezone: tz,
		workers:  m.Workers,
		serve:    serve.trySeal(path + ".serve"),
	}
}

type ServeConfigMarshall struct {
	Listen   string `yaml:"listen,omitempty"`
	Schedule string `yaml:"schedule,omitempty"`
}

func (m *ServeConfigMarshall) trySeal(path string) *ServeConfig {
	listen := m.Listen
	if listen == "" {
		listen = ":8080"
	}
	schedule := m.Schedule
	if schedule == "" {
		schedule = "0 4 * * *"
	}
	return &ServeConfig{
		listen:   listen,
		schedule: schedule,
	}
}

func required[T comparable](value T, path string) T {
	if value == *new(T) {
		panic(fmt.Errorf("%s is required but missing", path))
	}
	return value
}
