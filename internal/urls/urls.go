package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://formdrop.github.io/formdrop/

// GettingStarted is the quick start guide for new users
// covering installation and a first upload end to end.
const GettingStarted = "https://formdrop.github.io/formdrop/getting-started/"

// ServerSetup is the server installation and setup guide,
// covering storage directories, TLS, and mDNS advertisement.
const ServerSetup = "https://formdrop.github.io/formdrop/server-setup/"

// DiscoveryTroubleshooting provides solutions to common mDNS
// discovery problems on segmented or multicast-filtered networks.
const DiscoveryTroubleshooting = "https://formdrop.github.io/formdrop/discovery-troubleshooting/"

// ProfileReference documents the config.yaml profile format,
// including hidden fields and auto-submit behavior.
const ProfileReference = "https://formdrop.github.io/formdrop/profiles/"
