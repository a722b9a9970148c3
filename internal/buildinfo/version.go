package buildinfo

// Version is overridden at link time with -ldflags "-X ...buildinfo.Version=...".
var Version = "1.0.0"
