// Package grpc implements the Grpc source plugin kind: a streaming
// ingestion RPC built on google.golang.org/grpc and
// google.golang.org/protobuf's structpb, hand-registered via a
// grpc.ServiceDesc rather than protoc-generated stubs (no .proto compiler
// is available in this environment) so the wire payload stays as generic
// as the Http source's JSON body while still exercising the gRPC stack the
// example pack carries.
package grpc
