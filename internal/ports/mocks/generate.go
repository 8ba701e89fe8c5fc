//go:generate mockgen -source=../storage_adapter.go -destination=./mock_storage_adapter.go -package=mocks
//go:generate mockgen -source=../pricing_engine.go  -destination=./mock_pricing_engine.go  -package=mocks
//go:generate mockgen -source=../validator.go       -destination=./mock_validator.go       -package=mocks
//go:generate mockgen -source=../logger.go          -destination=./mock_logger.go          -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../tender_service.go  -destination=./mock_tender_service.go  -package=mocks

package mocks
