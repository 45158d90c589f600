// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [EventSender]: Posts a batch body to the ingestion endpoint
//   - [ObjectFetcher]: Downloads a log archive from object storage
//   - [ReportWriter]: Persists the final run report
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (HTTP, S3, file system, zerolog).
package ports
