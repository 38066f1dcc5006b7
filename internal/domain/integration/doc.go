// Package integration contains the domain model for third-party hotel
// integrations: the Integration aggregate (one configured connection between a
// hotel and an external POS/PMS provider), the append-only IntegrationLog audit
// entity, the resolved ConnectionProfile, and the ports implemented by the
// infrastructure layer (repositories, provider adapters, sync lock).
//
// This package follows the Ports & Adapters pattern: interfaces are defined
// here, and concrete implementations (GORM repositories, HTTP adapters, the
// Redis sync lock) live in the infrastructure layer.
package integration
