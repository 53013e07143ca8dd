package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for attachment and report files: (rw-r--r--).
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for attachment folders: (rwxr-xr-x).
	DefaultFolderPermissions os.FileMode = 0o755
)

// Report artifact names.
const (
	// RequestBodyAttachmentName is the file name used when a request body is diverted to an attachment.
	RequestBodyAttachmentName = "request-body.txt"
	// ResponseBodyAttachmentName is the file name used when a response body is diverted to an attachment.
	ResponseBodyAttachmentName = "response-body.txt"
	// ExtensionYAML is the extension of the machine-readable run report.
	ExtensionYAML = ".yaml"
)
