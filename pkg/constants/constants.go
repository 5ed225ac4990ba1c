// Package constants provides shared constants used throughout the relink codebase.
// This includes the remote API defaults, pacing and retry settings, and the
// workspace property names the tool was originally written against.
package constants

import "time"

// Remote API constants
const (
	// DefaultBaseURL is the base URL of the workspace database API
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultAPIVersion is the pinned API version sent with every request
	DefaultAPIVersion = "2022-06-28"

	// DefaultHTTPTimeout is the standard timeout for a single HTTP request
	DefaultHTTPTimeout = 30 * time.Second
)

// Pacing and retry constants
const (
	// DefaultRequestsPerSecond caps the rate of outgoing remote calls
	DefaultRequestsPerSecond = 2.5

	// DefaultBurst is the rolling one-second window quota (0 disables it)
	DefaultBurst = 0

	// DefaultMaxAttempts is the total attempt ceiling per remote call
	DefaultMaxAttempts = 5

	// DefaultBaseDelay seeds the backoff schedule between retry attempts
	DefaultBaseDelay = 1 * time.Second
)

// Batch constants
const (
	// DefaultBatchSize bounds one session to this many unlinked contracts
	DefaultBatchSize = 10

	// MaxBatchSize is the largest page the remote query API will return
	MaxBatchSize = 100
)

// Default property names. These match the workspace schema this tool was
// built for and can be overridden through configuration.
const (
	// DefaultContractNameProperty holds the raw person name on a contract
	DefaultContractNameProperty = "NOMBRE ORDENADO"

	// DefaultContractEmailProperty holds the contact address on a contract
	DefaultContractEmailProperty = "CORREO"

	// DefaultContractCategoryProperty holds the category on a contract
	DefaultContractCategoryProperty = "SEXO"

	// DefaultContractRelationProperty is the relation a contract points at a person with
	DefaultContractRelationProperty = "PERSONAS"

	// DefaultPersonNameProperty is the title property of the persons collection
	DefaultPersonNameProperty = "NOMBRE"

	// DefaultPersonEmailProperty is the contact address on a person
	DefaultPersonEmailProperty = "CORREO"

	// DefaultPersonCategoryProperty is the category on a person
	DefaultPersonCategoryProperty = "SEXO"
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated report filenames
	TimeFormatFilename = "20060102-150405"

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
