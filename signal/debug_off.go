//go:build !signaldebug

package signal

const debugTransitions = false
