package target

// ObjectNames is exported for testing purposes only.
var ObjectNames = objectNames
