package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	restaurantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Restaurant",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"address":     &graphql.Field{Type: graphql.String},
			"cuisine_ids": &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"rating":      &graphql.Field{Type: graphql.Float},
			"location":    &graphql.Field{Type: geoPointType},
			"distance_km": &graphql.Field{Type: graphql.Float},
			"bookmarked":  &graphql.Field{Type: graphql.Boolean},
		},
	})

	dealType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Deal",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.Int},
			"restaurant_id":    &graphql.Field{Type: graphql.Int},
			"title":            &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"price":            &graphql.Field{Type: graphql.Float},
			"discount_percent": &graphql.Field{Type: graphql.Float},
			"rating":           &graphql.Field{Type: graphql.Float},
			"bookmarked":       &graphql.Field{Type: graphql.Boolean},
		},
	})

	paginationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Pagination",
		Fields: graphql.Fields{
			"page":        &graphql.Field{Type: graphql.Int},
			"limit":       &graphql.Field{Type: graphql.Int},
			"total":       &graphql.Field{Type: graphql.Int},
			"total_pages": &graphql.Field{Type: graphql.Int},
		},
	})

	searchResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchResult",
		Fields: graphql.Fields{
			"restaurants": &graphql.Field{Type: graphql.NewList(restaurantType)},
			"deals":       &graphql.Field{Type: graphql.NewList(dealType)},
			"pagination":  &graphql.Field{Type: paginationType},
			"stale":       &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"search": &graphql.Field{
				Type:        searchResultType,
				Description: "Search restaurants and deals with filters and geo-ranking",
				Args: graphql.FieldConfigArgument{
					"query":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"showType":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "all"},
					"sortBy":     &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "relevance"},
					"distance":   &graphql.ArgumentConfig{Type: graphql.Float},
					"cuisineIds": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.Int)},
					"dietaryIds": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.Int)},
					"page":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := domain.FilterState{
						Query:      p.Args["query"].(string),
						ShowType:   domain.ShowType(p.Args["showType"].(string)),
						SortBy:     domain.SortBy(p.Args["sortBy"].(string)),
						CuisineIDs: intListArg(p.Args["cuisineIds"]),
						DietaryIDs: intListArg(p.Args["dietaryIds"]),
					}
					if d, ok := p.Args["distance"].(float64); ok {
						f.DistanceKm = &d
					}
					page := p.Args["page"].(int)
					limit := p.Args["limit"].(int)
					return deps.Search.Search(p.Context, f, page, limit)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setBookmark": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Set the bookmark flag for a restaurant or deal",
				Args: graphql.FieldConfigArgument{
					"entityId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"entityType": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"bookmarked": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					deps.Bookmarks.SetBookmark(p.Context, domain.BookmarkEvent{
						EntityID:   p.Args["entityId"].(int),
						EntityType: domain.EntityType(p.Args["entityType"].(string)),
						Bookmarked: p.Args["bookmarked"].(bool),
					})
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// intListArg converts a GraphQL list argument to []int.
func intListArg(arg interface{}) []int {
	raw, ok := arg.([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(int); ok {
			out = append(out, n)
		}
	}
	return out
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
