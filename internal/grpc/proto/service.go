// Package proto содержит интерфейс gRPC сервиса каталога документации
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// CatalogServiceServer представляет интерфейс gRPC сервиса
type CatalogServiceServer interface {
	CreatePackage(ctx context.Context, req *CreatePackageRequest) (*CreatePackageResponse, error)
	GetPackage(ctx context.Context, req *GetPackageRequest) (*GetPackageResponse, error)
	ListPackages(ctx context.Context, req *ListPackagesRequest) (*ListPackagesResponse, error)
	UpdatePackage(ctx context.Context, req *UpdatePackageRequest) (*UpdatePackageResponse, error)
	DeletePackage(ctx context.Context, req *DeletePackageRequest) (*DeletePackageResponse, error)
	CreateSource(ctx context.Context, req *CreateSourceRequest) (*CreateSourceResponse, error)
	GetSource(ctx context.Context, req *GetSourceRequest) (*GetSourceResponse, error)
	ListSources(ctx context.Context, req *ListSourcesRequest) (*ListSourcesResponse, error)
	UpdateSource(ctx context.Context, req *UpdateSourceRequest) (*UpdateSourceResponse, error)
	DeleteSource(ctx context.Context, req *DeleteSourceRequest) (*DeleteSourceResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedCatalogServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedCatalogServiceServer struct{}

// CreatePackage предоставляет базовую реализацию создания пакета
func (UnimplementedCatalogServiceServer) CreatePackage(ctx context.Context, req *CreatePackageRequest) (*CreatePackageResponse, error) {
	return nil, nil
}

// GetPackage предоставляет базовую реализацию получения пакета
func (UnimplementedCatalogServiceServer) GetPackage(ctx context.Context, req *GetPackageRequest) (*GetPackageResponse, error) {
	return nil, nil
}

// ListPackages предоставляет базовую реализацию списка пакетов
func (UnimplementedCatalogServiceServer) ListPackages(ctx context.Context, req *ListPackagesRequest) (*ListPackagesResponse, error) {
	return nil, nil
}

// UpdatePackage предоставляет базовую реализацию обновления пакета
func (UnimplementedCatalogServiceServer) UpdatePackage(ctx context.Context, req *UpdatePackageRequest) (*UpdatePackageResponse, error) {
	return nil, nil
}

// DeletePackage предоставляет базовую реализацию удаления пакета
func (UnimplementedCatalogServiceServer) DeletePackage(ctx context.Context, req *DeletePackageRequest) (*DeletePackageResponse, error) {
	return nil, nil
}

// CreateSource предоставляет базовую реализацию создания источника
func (UnimplementedCatalogServiceServer) CreateSource(ctx context.Context, req *CreateSourceRequest) (*CreateSourceResponse, error) {
	return nil, nil
}

// GetSource предоставляет базовую реализацию получения источника
func (UnimplementedCatalogServiceServer) GetSource(ctx context.Context, req *GetSourceRequest) (*GetSourceResponse, error) {
	return nil, nil
}

// ListSources предоставляет базовую реализацию списка источников
func (UnimplementedCatalogServiceServer) ListSources(ctx context.Context, req *ListSourcesRequest) (*ListSourcesResponse, error) {
	return nil, nil
}

// UpdateSource предоставляет базовую реализацию обновления источника
func (UnimplementedCatalogServiceServer) UpdateSource(ctx context.Context, req *UpdateSourceRequest) (*UpdateSourceResponse, error) {
	return nil, nil
}

// DeleteSource предоставляет базовую реализацию удаления источника
func (UnimplementedCatalogServiceServer) DeleteSource(ctx context.Context, req *DeleteSourceRequest) (*DeleteSourceResponse, error) {
	return nil, nil
}

// Ping предоставляет базовую реализацию проверки состояния сервиса
func (UnimplementedCatalogServiceServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения статистики каталога
func (UnimplementedCatalogServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// RegisterCatalogServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterCatalogServiceServer(s *grpc.Server, srv CatalogServiceServer) {
	// В реальном проекте это было бы автоматически сгенерировано protoc
	// Здесь заглушка для демонстрации
}
