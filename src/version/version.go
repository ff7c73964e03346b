package version

// Version is the snaprotate release version. Overridden at build time via
// -ldflags "-X snaprotate/src/version.Version=...".
var Version = "dev"
