// Package utils provides small helpers shared by the server and the client:
// JSON response writing, the resty based API client and UUIDv7 generation.
package utils
