/*
Package server holds the building blocks of a node binary: the
config.toml file, logging, genesis file handling and serving an
application over an ABCI socket.
*/
package server
