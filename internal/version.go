package internal

// Version is the current translingo release
const Version = "0.3.0"
