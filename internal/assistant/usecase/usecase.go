package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/assistant"
	"github.com/fekuna/omnipos-retail-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-retail-service/internal/expense"
	expenseDto "github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	inventoryDto "github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	productDto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	saleDto "github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
)

type consoleUseCase struct {
	parser    assistant.Parser
	products  product.UseCase
	catalog   product.Repository
	sales     sale.UseCase
	inventory inventory.UseCase
	expenses  expense.UseCase
	logger    logger.ZapLogger

	fallbackToFirstProduct bool
}

type Deps struct {
	Parser    assistant.Parser
	Products  product.UseCase
	Catalog   product.Repository
	Sales     sale.UseCase
	Inventory inventory.UseCase
	Expenses  expense.UseCase

	// FallbackToFirstProduct must match the sale usecase option of the same name.
	FallbackToFirstProduct bool
}

func NewConsoleUseCase(d Deps, log logger.ZapLogger) assistant.UseCase {
	return &consoleUseCase{
		parser:    d.Parser,
		products:  d.Products,
		catalog:   d.Catalog,
		sales:     d.Sales,
		inventory: d.Inventory,
		expenses:  d.Expenses,
		logger:    log,

		fallbackToFirstProduct: d.FallbackToFirstProduct,
	}
}

func noAction(msg string) *dto.ConsoleResult {
	return &dto.ConsoleResult{Action: assistant.ActionNone, Message: msg}
}

func (uc *consoleUseCase) Execute(ctx context.Context, input *dto.ConsoleInput) (*dto.ConsoleResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return noAction("nothing to do"), nil
	}

	action, err := uc.parser.Parse(ctx, text)
	if err != nil {
		uc.logger.Warn("console input not understood", zap.String("text", text), zap.Error(err))
		return noAction("could not understand that, try rephrasing"), nil
	}
	uc.logger.Info("console action parsed", zap.String("type", action.Type))

	switch action.Type {
	case assistant.ActionSale:
		return uc.sale(ctx, action.Data, input.UserID)
	case assistant.ActionTransfer:
		return uc.transfer(ctx, action.Data, input.UserID)
	case assistant.ActionExpense:
		return uc.expense(ctx, action.Data, text)
	case assistant.ActionProductDrop:
		return uc.productDrop(ctx, action.Data)
	}
	return noAction(fmt.Sprintf("unsupported action %q", action.Type)), nil
}

func (uc *consoleUseCase) sale(ctx context.Context, d assistant.ActionData, userID string) (*dto.ConsoleResult, error) {
	cmd, err := assistant.NewSaleCommand(d, uc.fallbackToFirstProduct)
	if err != nil {
		return nil, err
	}
	s, err := uc.sales.RecordSale(ctx, &saleDto.RecordSaleInput{
		UniqueCode:      cmd.UniqueCode,
		ItemName:        cmd.ItemName,
		Size:            cmd.Size,
		Channel:         cmd.Channel,
		Quantity:        cmd.Quantity,
		Amount:          cmd.Amount,
		CustomerName:    cmd.CustomerName,
		CustomerPhone:   cmd.CustomerPhone,
		CustomerAddress: cmd.CustomerAddress,
		CustomerType:    cmd.CustomerType,
		UserID:          userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConsoleResult{
		Action:   assistant.ActionSale,
		Consumed: true,
		Message:  fmt.Sprintf("sold %d x %s (%s) to %s for %s", s.Quantity, s.ProductName, s.Size, s.CustomerName, s.TotalAmount.StringFixed(2)),
		Sale:     s,
	}, nil
}

func (uc *consoleUseCase) transfer(ctx context.Context, d assistant.ActionData, userID string) (*dto.ConsoleResult, error) {
	cmd, err := assistant.NewTransferCommand(d)
	if err != nil {
		return nil, err
	}
	p, err := uc.catalog.FindByNameLike(ctx, cmd.ItemName)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrProductNotFound, cmd.ItemName)
	}
	size := cmd.Size
	if size == "" && len(p.Variants) > 0 {
		size = p.Variants[0].Size
	}

	res, err := uc.inventory.TransferStock(ctx, &inventoryDto.TransferStockInput{
		ProductID: p.ID,
		Size:      size,
		From:      cmd.From,
		To:        cmd.To,
		Quantity:  cmd.Quantity,
		Notes:     "console",
		UserID:    userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConsoleResult{
		Action:   assistant.ActionTransfer,
		Consumed: true,
		Message:  fmt.Sprintf("moved %d x %s (%s) from %s to %s", res.Quantity, p.Name, res.Size, res.From, res.To),
		Transfer: res,
	}, nil
}

func (uc *consoleUseCase) expense(ctx context.Context, d assistant.ActionData, raw string) (*dto.ConsoleResult, error) {
	cmd, err := assistant.NewExpenseCommand(d, raw)
	if err != nil {
		return nil, err
	}
	e, err := uc.expenses.AddExpense(ctx, &expenseDto.CreateExpenseInput{
		Category:    string(cmd.Category),
		Description: cmd.Description,
		Amount:      cmd.Amount,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConsoleResult{
		Action:   assistant.ActionExpense,
		Consumed: true,
		Message:  fmt.Sprintf("logged %s expense of %s", e.Category, e.Amount.StringFixed(2)),
		Expense:  e,
	}, nil
}

func (uc *consoleUseCase) productDrop(ctx context.Context, d assistant.ActionData) (*dto.ConsoleResult, error) {
	cmd, err := assistant.NewProductDropCommand(d)
	if err != nil {
		return nil, err
	}
	variants := make([]productDto.VariantInput, 0, len(cmd.Sizes))
	for _, size := range cmd.Sizes {
		v := productDto.VariantInput{Size: size}
		if cmd.HubStock > 0 {
			v.Stock = model.StockLevels{model.LocationHub: cmd.HubStock}
		}
		variants = append(variants, v)
	}
	p, err := uc.products.AddProduct(ctx, &productDto.CreateProductInput{
		SKU:       cmd.SKU,
		Name:      cmd.Name,
		CostPrice: cmd.CostPrice,
		SalePrice: cmd.SalePrice,
		Variants:  variants,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConsoleResult{
		Action:   assistant.ActionProductDrop,
		Consumed: true,
		Message:  fmt.Sprintf("dropped %s in %s", p.Name, strings.Join(cmd.Sizes, "/")),
		Product:  p,
	}, nil
}
