//go:build signaldebug

package signal

const debugTransitions = true
