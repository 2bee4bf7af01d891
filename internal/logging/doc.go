// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides the process-wide zerolog logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//
// Long-lived components receive a child logger at construction instead of
// calling the package functions:
//
//	engine, err := recommend.NewEngine(cfg, logging.Component("recommend"))
//
// HTTP handlers use Ctx to pick up the request ID set by the request ID
// middleware:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Invalid query")
//
// # slog Bridge
//
// The supervisor tree logs through sutureslog, which needs an *slog.Logger.
// NewSlogLogger adapts a zerolog logger to that interface. Group names are
// flattened into dotted keys ("group.key").
//
// # Conventions
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf.
package logging
