package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rahatul-dev/subbazar/internal/config"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedProduct struct {
	product  domain.Product
	packages []domain.Package
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	productRepo := repository.NewMongoProductRepository(db)
	packageRepo := repository.NewMongoPackageRepository(db)
	promoRepo := repository.NewMongoPromoRepository(db)

	// Prices in BDT.
	catalog := []seedProduct{
		{
			product: domain.Product{
				Name:        "Netflix Premium",
				NameBN:      "নেটফ্লিক্স প্রিমিয়াম",
				Description: "4K UHD streaming on up to 4 screens",
				Category:    domain.CategoryWeb,
				Features:    []string{"4K UHD", "4 Screens", "Shared Account"},
				IsActive:    true,
			},
			packages: []domain.Package{
				{Duration: domain.DurationOneMonth, Price: 350, OriginalPrice: 450, DiscountPercent: 22},
				{Duration: domain.DurationThreeMonth, Price: 950, OriginalPrice: 1350, DiscountPercent: 30},
				{Duration: domain.DurationSixMonth, Price: 1800, OriginalPrice: 2700, DiscountPercent: 33},
			},
		},
		{
			product: domain.Product{
				Name:        "Spotify Premium",
				NameBN:      "স্পটিফাই প্রিমিয়াম",
				Description: "Ad-free music on mobile and desktop",
				Category:    domain.CategoryMobile,
				Features:    []string{"Ad-free", "Offline Download", "Personal Account"},
				IsActive:    true,
			},
			packages: []domain.Package{
				{Duration: domain.DurationOneMonth, Price: 150, OriginalPrice: 200, DiscountPercent: 25},
				{Duration: domain.DurationSixMonth, Price: 800, OriginalPrice: 1200, DiscountPercent: 33},
			},
		},
		{
			product: domain.Product{
				Name:        "Full-Stack Web Development Course",
				NameBN:      "ফুল-স্ট্যাক ওয়েব ডেভেলপমেন্ট কোর্স",
				Description: "Bangla video course with lifetime access",
				Category:    domain.CategoryTutorial,
				Features:    []string{"120+ Lessons", "Bangla Narration", "Certificate"},
				IsActive:    true,
			},
			packages: []domain.Package{
				{Duration: domain.DurationLifetime, Price: 1500, OriginalPrice: 3000, DiscountPercent: 50},
			},
		},
	}

	for _, entry := range catalog {
		product := entry.product
		if err := productRepo.Create(context.Background(), &product); err != nil {
			log.Printf("Error creating product %s: %v", product.Name, err)
			continue
		}
		fmt.Printf("Created product: %s\n", product.Name)

		for _, pkg := range entry.packages {
			pkg.ProductID = product.ID
			if err := packageRepo.Create(context.Background(), &pkg); err != nil {
				log.Printf("Error creating package %s/%s: %v", product.Name, pkg.Duration, err)
				continue
			}
			fmt.Printf("  Created package: %s @ %d BDT\n", pkg.Duration, pkg.Price)
		}
	}

	promos := []domain.PromoCode{
		{Code: "SAVE10", Type: domain.PromoTypePercentage, Value: 10, IsActive: true},
		{Code: "EID50", Type: domain.PromoTypeFixed, Value: 50, MinOrderAmount: 500, IsActive: true},
		{Code: "WELCOME", Type: domain.PromoTypePercentage, Value: 15, MaxUses: 100, IsActive: true},
	}

	for _, promo := range promos {
		p := promo
		if err := promoRepo.Create(context.Background(), &p); err != nil {
			log.Printf("Error creating promo %s: %v", p.Code, err)
		} else {
			fmt.Printf("Created promo: %s\n", p.Code)
		}
	}

	fmt.Println("Seeding Catalog Complete.")
}
