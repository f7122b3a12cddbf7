package mocks

//go:generate mockgen -source=../scheduler/scheduler.go -destination=./scheduler_mocks.go -package=mocks

// This file holds the go:generate directives for regenerating gomock-based
// mocks. Hand-written fakes live alongside the generated ones where tests
// need richer behavior, such as injecting updates through the polling
// channel of the Telegram provider.
