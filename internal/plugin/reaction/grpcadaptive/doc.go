// Package grpcadaptive implements the GrpcAdaptive reaction plugin kind: a
// Grpc reaction that throttles its outbound delivery rate via
// golang.org/x/time/rate, mirroring HttpAdaptive's back-off behavior for
// gRPC-delivered reactions.
package grpcadaptive
