// Package services implements the driving ports. Services contain the
// business logic and depend only on domain types and driven ports.
package services
