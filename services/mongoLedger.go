package services

import (
	"context"
	"fmt"
	"time"

	"go-restaurant-pos/database"
	"go-restaurant-pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLedger implements Ledger over the mongo collections. Add,
// remove and merge run inside sessions so their statements commit or
// roll back as one unit.
type MongoLedger struct {
	client   *mongo.Client
	tables   *mongo.Collection
	orders   *mongo.Collection
	items    *mongo.Collection
	products *mongo.Collection
	payments *mongo.Collection
}

func NewMongoLedger(client *mongo.Client) *MongoLedger {
	return &MongoLedger{
		client:   client,
		tables:   database.OpenCollection(client, "table"),
		orders:   database.OpenCollection(client, "order"),
		items:    database.OpenCollection(client, "orderItem"),
		products: database.OpenCollection(client, "product"),
		payments: database.OpenCollection(client, "payment"),
	}
}

func (l *MongoLedger) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	var table models.Table
	err := l.tables.FindOne(ctx, bson.M{"table_id": tableID}).Decode(&table)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (l *MongoLedger) FindOpenOrder(ctx context.Context, tableID string) (*models.Order, error) {
	var order models.Order
	err := l.orders.FindOne(ctx, bson.M{"table_id": tableID, "status": models.OrderOpen}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (l *MongoLedger) InsertOrder(ctx context.Context, order *models.Order) error {
	_, err := l.orders.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: open order for table %s", ErrConflict, *order.Table_id)
	}
	return err
}

func (l *MongoLedger) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := l.orders.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (l *MongoLedger) GetActiveProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := l.products.FindOne(ctx, bson.M{"product_id": productID, "active": true}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (l *MongoLedger) GetOrderItem(ctx context.Context, orderID, itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := l.items.FindOne(ctx, bson.M{"order_item_id": itemID, "order_id": orderID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// inTransaction runs fn inside a session so multi-statement mutations
// cannot partially apply.
func (l *MongoLedger) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := l.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (l *MongoLedger) InsertItem(ctx context.Context, item *models.OrderItem, delta float64) error {
	return l.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := l.items.InsertOne(sc, item); err != nil {
			return err
		}
		result, err := l.orders.UpdateOne(sc,
			bson.M{"order_id": item.Order_id},
			bson.M{
				"$inc": bson.M{"total": delta},
				"$set": bson.M{"updated_at": time.Now().UTC()},
			})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("%w: order %s", ErrNotFound, item.Order_id)
		}
		return nil
	})
}

func (l *MongoLedger) DeleteItem(ctx context.Context, orderID, itemID string, delta float64) error {
	return l.inTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := l.items.DeleteOne(sc, bson.M{"order_item_id": itemID, "order_id": orderID})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
		}
		_, err = l.orders.UpdateOne(sc,
			bson.M{"order_id": orderID},
			bson.M{
				"$inc": bson.M{"total": -delta},
				"$set": bson.M{"updated_at": time.Now().UTC()},
			})
		return err
	})
}

func (l *MongoLedger) InsertPayment(ctx context.Context, payment *models.Payment) error {
	_, err := l.payments.InsertOne(ctx, payment)
	return err
}

func (l *MongoLedger) PaymentsTotal(ctx context.Context, orderID string) (float64, error) {
	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "order_id", Value: orderID}}}}
	groupStage := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "paid", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
	}}}

	cursor, err := l.payments.Aggregate(ctx, mongo.Pipeline{matchStage, groupStage})
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Paid float64 `bson:"paid"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Paid, nil
}

func (l *MongoLedger) CloseOrder(ctx context.Context, orderID string, closedAt time.Time) error {
	result, err := l.orders.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"status":     models.OrderClosed,
			"closed_at":  closedAt,
			"updated_at": closedAt,
		}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return nil
}

func (l *MongoLedger) MergeOrders(ctx context.Context, source, target *models.Order, closedAt time.Time) error {
	return l.inTransaction(ctx, func(sc mongo.SessionContext) error {
		_, err := l.items.UpdateMany(sc,
			bson.M{"order_id": source.Order_id},
			bson.M{"$set": bson.M{"order_id": target.Order_id}})
		if err != nil {
			return err
		}
		_, err = l.orders.UpdateOne(sc,
			bson.M{"order_id": target.Order_id},
			bson.M{
				"$inc": bson.M{"total": source.Total},
				"$set": bson.M{"updated_at": closedAt},
			})
		if err != nil {
			return err
		}
		_, err = l.orders.UpdateOne(sc,
			bson.M{"order_id": source.Order_id},
			bson.M{"$set": bson.M{
				"status":      models.OrderMerged,
				"closed_at":   closedAt,
				"merged_into": target.Order_id,
				"total":       0,
				"updated_at":  closedAt,
			}})
		return err
	})
}

func (l *MongoLedger) RelocateOrder(ctx context.Context, orderID, tableID string) error {
	result, err := l.orders.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"table_id":   tableID,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return nil
}

func (l *MongoLedger) ListTableStatus(ctx context.Context) ([]models.TableStatus, error) {
	lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "order"},
		{Key: "let", Value: bson.D{{Key: "tid", Value: "$table_id"}}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$table_id", "$$tid"}}},
				bson.D{{Key: "$eq", Value: bson.A{"$status", string(models.OrderOpen)}}},
			}}}}}}},
		}},
		{Key: "as", Value: "open_order"},
	}}}
	unwindStage := bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$open_order"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "table_id", Value: 1},
		{Key: "name", Value: 1},
		{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$open_order", false}}},
			"open",
			"empty",
		}}}},
		{Key: "open_order_id", Value: "$open_order.order_id"},
		{Key: "open_total", Value: "$open_order.total"},
	}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}}

	cursor, err := l.tables.Aggregate(ctx, mongo.Pipeline{lookupStage, unwindStage, projectStage, sortStage})
	if err != nil {
		return nil, err
	}
	var statuses []models.TableStatus
	if err := cursor.All(ctx, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (l *MongoLedger) SalesSummary(ctx context.Context, from, until time.Time) (*SalesSummary, error) {
	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "paid_at", Value: bson.D{
		{Key: "$gte", Value: from},
		{Key: "$lt", Value: until},
	}}}}}
	groupStage := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		{Key: "orders", Value: bson.D{{Key: "$addToSet", Value: "$order_id"}}},
	}}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "order_count", Value: bson.D{{Key: "$size", Value: "$orders"}}},
		{Key: "total_revenue", Value: 1},
	}}}

	cursor, err := l.payments.Aggregate(ctx, mongo.Pipeline{matchStage, groupStage, projectStage})
	if err != nil {
		return nil, err
	}
	var summaries []SalesSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return &SalesSummary{}, nil
	}
	return &summaries[0], nil
}

func (l *MongoLedger) ProductSales(ctx context.Context, from, until time.Time) ([]ProductSales, error) {
	lookupOrderStage := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "order"},
		{Key: "localField", Value: "order_id"},
		{Key: "foreignField", Value: "order_id"},
		{Key: "as", Value: "order"},
	}}}
	unwindOrderStage := bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$order"}}}}
	matchStage := bson.D{{Key: "$match", Value: bson.D{
		{Key: "order.status", Value: models.OrderClosed},
		{Key: "order.closed_at", Value: bson.D{
			{Key: "$gte", Value: from},
			{Key: "$lt", Value: until},
		}},
	}}}
	lookupProductStage := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "product"},
		{Key: "localField", Value: "product_id"},
		{Key: "foreignField", Value: "product_id"},
		{Key: "as", Value: "product"},
	}}}
	unwindProductStage := bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$product"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
	groupStage := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$product_id"},
		{Key: "name", Value: bson.D{{Key: "$first", Value: "$product.name"}}},
		{Key: "quantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
			{Key: "$multiply", Value: bson.A{"$quantity", "$price"}},
		}}}},
	}}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "product_id", Value: "$_id"},
		{Key: "name", Value: 1},
		{Key: "quantity", Value: 1},
		{Key: "revenue", Value: 1},
	}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}}

	cursor, err := l.items.Aggregate(ctx, mongo.Pipeline{
		lookupOrderStage,
		unwindOrderStage,
		matchStage,
		lookupProductStage,
		unwindProductStage,
		groupStage,
		projectStage,
		sortStage,
	})
	if err != nil {
		return nil, err
	}
	var rows []ProductSales
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
