// Package mocks provides mock implementations for testing bizportal services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository and port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(user, nil)
package mocks

// Generate mocks for the repository interfaces in internal/core:
// CacheRepository, DashboardRepository, UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=core_mock.go github.com/target/bizportal/internal/core CacheRepository,DashboardRepository,UserRepository

// Generate mocks for the outbound ports in internal/ports:
// NotificationSink, Registrar, StatsSource
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/bizportal/internal/ports NotificationSink,Registrar,StatsSource
