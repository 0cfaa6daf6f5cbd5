package docqa

// Version is reported by the health endpoint and the binaries.
const Version = "0.3.0"
