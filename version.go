package pathways

// Version is the current release version of the pathways engine.
const Version = "0.2.0"
