// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces consumed by the service layer. To regenerate
// after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for ProfileRepo, used by ProfileService.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=profile_repo_mock.go github.com/campushq/internhub/internal/service ProfileRepo

// Generate mock for ReportRepo, used by ReportService.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=report_repo_mock.go github.com/campushq/internhub/internal/service ReportRepo

// Generate mock for NOCRepo, used by NOCService.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=noc_repo_mock.go github.com/campushq/internhub/internal/service NOCRepo
