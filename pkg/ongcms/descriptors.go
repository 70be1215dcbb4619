package ongcms

// RelatedRef is a polymorphic reference from one entity to another: a
// target kind tag plus the opaque id of the referenced document. Notes use
// it for their relatedTo field.
type RelatedRef struct {
	Type  string `json:"type" bson:"type"`
	RefID string `json:"refId" bson:"refId"`
}

// Known polymorphic target kinds.
const (
	RelatedKindProject = "project"
	RelatedKindProgram = "program"
	RelatedKindEvent   = "event"
	RelatedKindUser    = "user"
)

var kindCollections = map[string]string{
	RelatedKindProject: "projects",
	RelatedKindProgram: "programs",
	RelatedKindEvent:   "events",
	RelatedKindUser:    "users",
}

func collectionForKind(kind string) (string, bool) {
	collection, ok := kindCollections[kind]
	return collection, ok
}

// CollaboratorLogoPolicy accepts a single logo image; GIFs are not
// accepted for logos.
var CollaboratorLogoPolicy = FilePolicy{
	MaxFiles:    1,
	MaxFileSize: 5 * 1024 * 1024,
	AllowedTypes: []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	},
}

// Entity descriptors. These are static configuration, not logic: each one
// names a collection, its attachment folder and the field schema the
// normalizer applies before the generic operations persist anything.
var (
	Projects = EntityDescriptor{
		Collection:       "projects",
		Name:             "project",
		AttachmentFolder: "vereda/projects",
		Schema: FieldSchema{
			"programs":  FieldJSONArray,
			"startDate": FieldDate,
			"endDate":   FieldDate,
		},
		Populate: []PopulateSpec{
			{Field: "programs", Collection: "programs"},
		},
	}

	Programs = EntityDescriptor{
		Collection:       "programs",
		Name:             "program",
		AttachmentFolder: "vereda/programs",
		Schema: FieldSchema{
			"startDate": FieldDate,
			"endDate":   FieldDate,
		},
		Populate: []PopulateSpec{
			{Field: "project", Collection: "projects"},
		},
	}

	Events = EntityDescriptor{
		Collection:       "events",
		Name:             "event",
		AttachmentFolder: "vereda/events",
		Schema: FieldSchema{
			"startDate": FieldDate,
		},
		Populate: []PopulateSpec{
			{Field: "project", Collection: "projects"},
			{Field: "program", Collection: "programs"},
		},
	}

	Notes = EntityDescriptor{
		Collection: "notes",
		Name:       "note",
		Schema: FieldSchema{
			"relatedTo": FieldJSONObject,
		},
		Populate: []PopulateSpec{
			{Field: "author", Collection: "users"},
			{Field: "relatedTo"}, // polymorphic, resolved by target kind
		},
	}

	Testimonies = EntityDescriptor{
		Collection:       "testimonies",
		Name:             "testimony",
		AttachmentFolder: "vereda/testimonies",
		Populate: []PopulateSpec{
			{Field: "project", Collection: "projects"},
			{Field: "program", Collection: "programs"},
		},
	}

	Collaborators = EntityDescriptor{
		Collection:       "collaborators",
		Name:             "collaborator",
		AttachmentFolder: "vereda/logos",
		Schema: FieldSchema{
			"order": FieldNumber,
		},
		Files: CollaboratorLogoPolicy,
		Sort:  []SortField{{Field: "order"}},
	}

	Transparency = EntityDescriptor{
		Collection:       "transparency",
		Name:             "transparency document",
		AttachmentFolder: "vereda/transparency",
		Schema: FieldSchema{
			"publishedAt": FieldDate,
			"tags":        FieldJSONArray,
		},
		Files: DocumentPolicy,
		Sort: []SortField{
			{Field: "publishedAt", Desc: true},
			{Field: "createdAt", Desc: true},
		},
	}

	Volunteers = EntityDescriptor{
		Collection: "volunteers",
		Name:       "volunteer sign-up",
		Schema: FieldSchema{
			"birthDate": FieldDate,
		},
		Sort: []SortField{{Field: "createdAt", Desc: true}},
	}

	Users = EntityDescriptor{
		Collection: "users",
		Name:       "user",
	}
)
