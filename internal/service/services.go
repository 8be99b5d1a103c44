package service

import (
	"github.com/aled/logistics-sandbox/internal/aggregate"
	"github.com/aled/logistics-sandbox/internal/erp"
	"github.com/aled/logistics-sandbox/internal/store"
	"github.com/aled/logistics-sandbox/internal/token"
	"github.com/rs/zerolog"
)

type Services struct {
	Demo *DemoService
	ERP  *ERPService
}

func NewServices(st *store.Store, erpClient erp.Client, codec *token.Codec, engine *aggregate.Engine, log zerolog.Logger) *Services {
	return &Services{
		Demo: NewDemoService(st, erpClient, codec, engine, log),
		ERP:  NewERPService(erpClient),
	}
}
