/*
Package utils contains decorators shared by every program: atomic
savepoints, panic recovery, logging, event tags and prometheus metrics.
*/
package utils
