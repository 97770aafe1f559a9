// Package mocks provides gomock implementations of statewire interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	s := mocks.NewMockStore(ctrl)
//	s.EXPECT().Load(gomock.Any(), "run-1").Return(doc, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=store_mock.go github.com/tailored-agentic-units/statewire/store Store
