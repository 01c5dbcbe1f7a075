// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package env provides an interface-based abstraction for environment variable
access, enabling dependency injection and testing isolation.

AgentHive reads credentials (AGENTHIVE_TOKEN) and configuration overrides
(AGENTHIVE_REGISTRY, AGENTHIVE_LOG_LEVEL, ...) from the environment. Going
through a Reader keeps those lookups mockable without mutating the real
process environment in tests.

# Basic Usage

Use OSReader to read environment variables via the standard os package:

	reader := &env.OSReader{}
	token := reader.Getenv("AGENTHIVE_TOKEN")

# Testing

The Reader interface allows injecting a mock in tests. A generated mock is
available in the mocks sub-package:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().LookupEnv("AGENTHIVE_TOKEN").Return("test-token", true)

	client := registry.NewHTTPClient(baseURL, registry.WithEnv(mock))
*/
package env
