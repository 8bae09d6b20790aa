// Package grpc implements the Grpc reaction plugin kind: a client that
// streams each result delta to a configured gRPC endpoint's DeliverResults
// RPC, using google.golang.org/grpc with a structpb.Struct payload (the
// same code-gen-free wire message the Grpc source uses, keeping both ends
// of the stack to a single hand-registered service description).
package grpc
