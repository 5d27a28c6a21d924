// Package grpc содержит реализацию gRPC сервера каталога документации
package grpc

import (
	"context"
	"errors"

	"github.com/tempizhere/docstore/internal/grpc/proto"
	"github.com/tempizhere/docstore/internal/models"
	"github.com/tempizhere/docstore/internal/repository"
	"github.com/tempizhere/docstore/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер каталога документации
type Server struct {
	proto.UnimplementedCatalogServiceServer
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, db repository.Database, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// mapError переводит ошибки сервиса в статусы gRPC
func (s *Server) mapError(err error) error {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return status.Error(codes.InvalidArgument, verrs.Error())
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, repository.ErrPackageNotExists):
		return status.Error(codes.InvalidArgument, "documentation package does not exist")
	case errors.Is(err, repository.ErrDuplicateName):
		return status.Error(codes.AlreadyExists, "package name already exists")
	case errors.Is(err, repository.ErrDefaultExists):
		return status.Error(codes.AlreadyExists, "package already has a default source")
	default:
		s.logger.Error("Unhandled service error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

// toProtoSource переводит источник модели в proto-представление
func toProtoSource(src models.Source) proto.Source {
	return proto.Source{
		ID:               src.ID,
		PackageID:        src.PackageID,
		InventoryURL:     src.InventoryURL,
		HumanFriendlyURL: src.HumanFriendlyURL,
		Version:          src.Version,
		LanguageCode:     src.LanguageCode,
		Preview:          src.Preview,
		Default:          src.Default,
	}
}

// toProtoPackage переводит пакет модели в proto-представление
func toProtoPackage(pkg models.Package) *proto.Package {
	p := &proto.Package{
		ID:                  pkg.ID,
		Name:                pkg.Name,
		Homepage:            pkg.Homepage,
		ProgrammingLanguage: pkg.ProgrammingLanguage,
	}
	for _, src := range pkg.Sources {
		p.Sources = append(p.Sources, toProtoSource(src))
	}
	return p
}

// CreatePackage обрабатывает создание пакета вместе с источниками
func (s *Server) CreatePackage(ctx context.Context, req *proto.CreatePackageRequest) (*proto.CreatePackageResponse, error) {
	createReq := models.PackageCreateRequest{
		Name:                req.Name,
		Homepage:            req.Homepage,
		ProgrammingLanguage: req.ProgrammingLanguage,
	}
	for _, spec := range req.Sources {
		createReq.Sources = append(createReq.Sources, models.SourceSpec{
			InventoryURL: spec.InventoryURL,
			Version:      spec.Version,
			LanguageCode: spec.LanguageCode,
			Preview:      spec.Preview,
			Default:      spec.Default,
		})
	}

	pkg, err := s.svc.CreatePackage(ctx, createReq)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.CreatePackageResponse{Package: toProtoPackage(pkg)}, nil
}

// GetPackage обрабатывает получение пакета с источниками
func (s *Server) GetPackage(ctx context.Context, req *proto.GetPackageRequest) (*proto.GetPackageResponse, error) {
	pkg, err := s.svc.GetPackage(ctx, req.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetPackageResponse{Package: toProtoPackage(pkg)}, nil
}

// ListPackages обрабатывает получение списка пакетов
func (s *Server) ListPackages(ctx context.Context, req *proto.ListPackagesRequest) (*proto.ListPackagesResponse, error) {
	packages, err := s.svc.ListPackages(ctx, req.WithSources)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := &proto.ListPackagesResponse{}
	for _, pkg := range packages {
		resp.Packages = append(resp.Packages, *toProtoPackage(pkg))
	}
	return resp, nil
}

// UpdatePackage обрабатывает частичное обновление пакета
func (s *Server) UpdatePackage(ctx context.Context, req *proto.UpdatePackageRequest) (*proto.UpdatePackageResponse, error) {
	patch := models.PackagePatchRequest{
		Name:                req.Name,
		Homepage:            req.Homepage,
		ProgrammingLanguage: req.ProgrammingLanguage,
	}
	pkg, err := s.svc.UpdatePackage(ctx, req.ID, patch)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.UpdatePackageResponse{Package: toProtoPackage(pkg)}, nil
}

// DeletePackage обрабатывает удаление пакета вместе с источниками
func (s *Server) DeletePackage(ctx context.Context, req *proto.DeletePackageRequest) (*proto.DeletePackageResponse, error) {
	if err := s.svc.DeletePackage(ctx, req.ID); err != nil {
		return nil, s.mapError(err)
	}
	return &proto.DeletePackageResponse{}, nil
}

// CreateSource обрабатывает создание источника для существующего пакета
func (s *Server) CreateSource(ctx context.Context, req *proto.CreateSourceRequest) (*proto.CreateSourceResponse, error) {
	src, err := s.svc.CreateSource(ctx, models.SourceCreateRequest{
		PackageID:    req.PackageID,
		InventoryURL: req.InventoryURL,
		Version:      req.Version,
		LanguageCode: req.LanguageCode,
		Preview:      req.Preview,
		Default:      req.Default,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	protoSrc := toProtoSource(src)
	return &proto.CreateSourceResponse{Source: &protoSrc}, nil
}

// GetSource обрабатывает получение источника с владеющим пакетом
func (s *Server) GetSource(ctx context.Context, req *proto.GetSourceRequest) (*proto.GetSourceResponse, error) {
	src, err := s.svc.GetSource(ctx, req.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := &proto.GetSourceResponse{}
	if src.Package != nil {
		resp.Package = toProtoPackage(*src.Package)
		src.Package = nil
	}
	protoSrc := toProtoSource(src)
	resp.Source = &protoSrc
	return resp, nil
}

// ListSources обрабатывает получение источников пакета
func (s *Server) ListSources(ctx context.Context, req *proto.ListSourcesRequest) (*proto.ListSourcesResponse, error) {
	sources, err := s.svc.ListSources(ctx, req.PackageID)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := &proto.ListSourcesResponse{}
	for _, src := range sources {
		resp.Sources = append(resp.Sources, toProtoSource(src))
	}
	return resp, nil
}

// UpdateSource обрабатывает частичное обновление источника
func (s *Server) UpdateSource(ctx context.Context, req *proto.UpdateSourceRequest) (*proto.UpdateSourceResponse, error) {
	patch := models.SourcePatchRequest{
		InventoryURL: req.InventoryURL,
		Version:      req.Version,
		LanguageCode: req.LanguageCode,
		Preview:      req.Preview,
		Default:      req.Default,
	}
	src, err := s.svc.UpdateSource(ctx, req.ID, patch)
	if err != nil {
		return nil, s.mapError(err)
	}
	protoSrc := toProtoSource(src)
	return &proto.UpdateSourceResponse{Source: &protoSrc}, nil
}

// DeleteSource обрабатывает удаление источника
func (s *Server) DeleteSource(ctx context.Context, req *proto.DeleteSourceRequest) (*proto.DeleteSourceResponse, error) {
	if err := s.svc.DeleteSource(ctx, req.ID); err != nil {
		return nil, s.mapError(err)
	}
	return &proto.DeleteSourceResponse{}, nil
}

// Ping обрабатывает проверку состояния сервиса
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if s.db == nil {
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}
	if err := s.db.Ping(); err != nil {
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}
	return &proto.PingResponse{DatabaseAvailable: true}, nil
}

// GetStats обрабатывает получение статистики каталога
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetStatsResponse{
		Packages: stats.Packages,
		Sources:  stats.Sources,
	}, nil
}
