package record

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
)

// DecodeAd converts a stored ads record into an Ad.
func DecodeAd(rec domain.Record) domain.Ad {
	f := rec.Fields
	if f == nil {
		f = map[string]interface{}{}
	}

	category := domain.AdCategory(stringField(f, "category"))
	if category == "" {
		category = domain.CategoryTestStrips
	}
	role := domain.PostingRole(stringField(f, "postingRole"))
	if !role.IsValid() {
		role = domain.PostingRoleBuyer
	}

	return domain.Ad{
		ID:           rec.ID,
		Title:        stringField(f, "title"),
		ProductType:  stringField(f, "productType"),
		Category:     category,
		City:         stringField(f, "city"),
		State:        stringField(f, "state"),
		Zip:          stringField(f, "zip"),
		Price:        float64Field(f, "price"),
		BuyerName:    stringFieldOr(f, "Buyer", "buyerName", "contactEmail"),
		ContactEmail: stringField(f, "contactEmail"),
		ContactPhone: stringField(f, "contactPhone"),
		PostingRole:  role,
		Premium:      boolField(f, "premium"),
		Note:         stringField(f, "note"),
		CreatedAt:    int64Field(f, "createdAt"),
		MainImageURL: stringField(f, "mainImageUrl"),
		ImageURLs:    stringSliceField(f, "imageUrls"),
		OwnerUID:     stringField(f, "ownerUid"),
	}
}

// DecodeAds decodes every record of a snapshot, preserving order.
func DecodeAds(snapshot domain.Snapshot) []domain.Ad {
	ads := make([]domain.Ad, 0, len(snapshot))
	for _, rec := range snapshot {
		ads = append(ads, DecodeAd(rec))
	}
	return ads
}

// EncodeAd builds the ads payload. Blank optional fields are omitted.
func EncodeAd(ad domain.Ad) map[string]interface{} {
	f := map[string]interface{}{
		"title":       ad.Title,
		"productType": ad.ProductType,
		"category":    string(ad.Category),
		"city":        ad.City,
		"state":       ad.State,
		"zip":         ad.Zip,
		"price":       ad.Price,
		"buyerName":   ad.BuyerName,
		"premium":     ad.Premium,
		"createdAt":   ad.CreatedAt,
	}
	if ad.PostingRole != "" {
		f["postingRole"] = string(ad.PostingRole)
	}
	putString(f, "contactEmail", ad.ContactEmail)
	putString(f, "contactPhone", ad.ContactPhone)
	putString(f, "note", ad.Note)
	putString(f, "ownerUid", ad.OwnerUID)
	if len(ad.ImageURLs) > 0 {
		f["mainImageUrl"] = ad.ImageURLs[0]
		f["imageUrls"] = imageList(ad.ImageURLs)
	}
	return f
}

// EncodeAdImages builds the partial update attaching image URLs to an ad.
// The first URL becomes the thumbnail.
func EncodeAdImages(urls []string) map[string]interface{} {
	if len(urls) == 0 {
		return nil
	}
	return map[string]interface{}{
		"mainImageUrl": urls[0],
		"imageUrls":    imageList(urls),
	}
}

func imageList(urls []string) []interface{} {
	list := make([]interface{}, 0, len(urls))
	for _, u := range urls {
		list = append(list, u)
	}
	return list
}

// EncodeAdImageMeta builds the adImages record kept for every uploaded file.
func EncodeAdImageMeta(adID, ownerUID, url, objectKey string, createdAt int64) map[string]interface{} {
	f := map[string]interface{}{
		"adId":        adID,
		"downloadUrl": url,
		"path":        objectKey,
		"createdAt":   createdAt,
	}
	putString(f, "ownerUid", ownerUID)
	return f
}
