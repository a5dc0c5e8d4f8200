package geo

import "delivery-estimate-service/internal/domain"

// Static geography configuration: dispatch hubs and destination
// districts with representative pincode samples. Declaration order is
// significant: NearestHub and DistrictsForRegion resolve in the order
// entries appear here, which keeps lookups deterministic.

var hubs = []domain.ShippingHub{
	{Code: "MUMBAI_400001", Name: "Mumbai Fort", Region: "Maharashtra", PostalCode: "400001", Zone: domain.ZoneMetro},
	{Code: "DELHI_110001", Name: "Delhi Connaught Place", Region: "Delhi", PostalCode: "110001", Zone: domain.ZoneMetro},
	{Code: "BANGALORE_560001", Name: "Bangalore MG Road", Region: "Karnataka", PostalCode: "560001", Zone: domain.ZoneMetro},
	{Code: "CHENNAI_600001", Name: "Chennai Parrys", Region: "Tamil Nadu", PostalCode: "600001", Zone: domain.ZoneMetro},
	{Code: "KOLKATA_700001", Name: "Kolkata BBD Bagh", Region: "West Bengal", PostalCode: "700001", Zone: domain.ZoneMetro},
	{Code: "HYDERABAD_500001", Name: "Hyderabad Abids", Region: "Telangana", PostalCode: "500001", Zone: domain.ZoneMetro},
	{Code: "PUNE_411001", Name: "Pune Camp", Region: "Maharashtra", PostalCode: "411001", Zone: domain.ZoneTier1},
	{Code: "AHMEDABAD_380001", Name: "Ahmedabad Lal Darwaja", Region: "Gujarat", PostalCode: "380001", Zone: domain.ZoneTier1},
	{Code: "JAIPUR_302001", Name: "Jaipur MI Road", Region: "Rajasthan", PostalCode: "302001", Zone: domain.ZoneTier1},
	{Code: "LUCKNOW_226001", Name: "Lucknow Hazratganj", Region: "Uttar Pradesh", PostalCode: "226001", Zone: domain.ZoneTier2},
	{Code: "KOCHI_682001", Name: "Kochi Ernakulam", Region: "Kerala", PostalCode: "682001", Zone: domain.ZoneTier2},
	{Code: "GUWAHATI_781001", Name: "Guwahati Pan Bazar", Region: "Assam", PostalCode: "781001", Zone: domain.ZoneTier3},
}

var districts = []domain.District{
	{
		Code: "MUMBAI_CITY", Name: "Mumbai City", Region: "Maharashtra", Zone: domain.ZoneMetro,
		PostalCodes: []string{"400001", "400002", "400003", "400004", "400005", "400020", "400021"},
	},
	{
		Code: "MUMBAI_SUBURBAN", Name: "Mumbai Suburban", Region: "Maharashtra", Zone: domain.ZoneMetro,
		PostalCodes: []string{"400051", "400052", "400053", "400054", "400058", "400070", "400099"},
	},
	{
		Code: "PUNE_DISTRICT", Name: "Pune", Region: "Maharashtra", Zone: domain.ZoneTier1,
		PostalCodes: []string{"411001", "411002", "411004", "411014", "411028", "411057"},
	},
	{
		Code: "NAGPUR_DISTRICT", Name: "Nagpur", Region: "Maharashtra", Zone: domain.ZoneTier2,
		PostalCodes: []string{"440001", "440002", "440010", "440022"},
	},
	{
		Code: "NEW_DELHI", Name: "New Delhi", Region: "Delhi", Zone: domain.ZoneMetro,
		PostalCodes: []string{"110001", "110002", "110003", "110011", "110021", "110023"},
	},
	{
		Code: "SOUTH_DELHI", Name: "South Delhi", Region: "Delhi", Zone: domain.ZoneMetro,
		PostalCodes: []string{"110016", "110017", "110019", "110024", "110048", "110065"},
	},
	{
		Code: "GURGAON_DISTRICT", Name: "Gurgaon", Region: "Haryana", Zone: domain.ZoneTier1,
		PostalCodes: []string{"122001", "122002", "122018", "122102"},
	},
	{
		Code: "BANGALORE_URBAN", Name: "Bangalore Urban", Region: "Karnataka", Zone: domain.ZoneMetro,
		PostalCodes: []string{"560001", "560002", "560008", "560034", "560066", "560095", "560103"},
	},
	{
		Code: "MYSORE_DISTRICT", Name: "Mysore", Region: "Karnataka", Zone: domain.ZoneTier2,
		PostalCodes: []string{"570001", "570002", "570020", "570026"},
	},
	{
		Code: "CHENNAI_DISTRICT", Name: "Chennai", Region: "Tamil Nadu", Zone: domain.ZoneMetro,
		PostalCodes: []string{"600001", "600002", "600004", "600017", "600040", "600119"},
	},
	{
		Code: "COIMBATORE_DISTRICT", Name: "Coimbatore", Region: "Tamil Nadu", Zone: domain.ZoneTier2,
		PostalCodes: []string{"641001", "641002", "641012", "641035"},
	},
	{
		Code: "KOLKATA_DISTRICT", Name: "Kolkata", Region: "West Bengal", Zone: domain.ZoneMetro,
		PostalCodes: []string{"700001", "700012", "700016", "700019", "700064", "700091"},
	},
	{
		Code: "HYDERABAD_DISTRICT", Name: "Hyderabad", Region: "Telangana", Zone: domain.ZoneMetro,
		PostalCodes: []string{"500001", "500003", "500016", "500032", "500081"},
	},
	{
		Code: "AHMEDABAD_DISTRICT", Name: "Ahmedabad", Region: "Gujarat", Zone: domain.ZoneTier1,
		PostalCodes: []string{"380001", "380006", "380015", "380054", "382424"},
	},
	{
		Code: "SURAT_DISTRICT", Name: "Surat", Region: "Gujarat", Zone: domain.ZoneTier2,
		PostalCodes: []string{"395001", "395003", "395007", "394210"},
	},
	{
		Code: "JAIPUR_DISTRICT", Name: "Jaipur", Region: "Rajasthan", Zone: domain.ZoneTier1,
		PostalCodes: []string{"302001", "302004", "302015", "302021"},
	},
	{
		Code: "JODHPUR_DISTRICT", Name: "Jodhpur", Region: "Rajasthan", Zone: domain.ZoneTier3,
		PostalCodes: []string{"342001", "342005", "342011"},
	},
	{
		Code: "LUCKNOW_DISTRICT", Name: "Lucknow", Region: "Uttar Pradesh", Zone: domain.ZoneTier2,
		PostalCodes: []string{"226001", "226004", "226010", "226022"},
	},
	{
		Code: "VARANASI_DISTRICT", Name: "Varanasi", Region: "Uttar Pradesh", Zone: domain.ZoneTier3,
		PostalCodes: []string{"221001", "221002", "221010"},
	},
	{
		Code: "ERNAKULAM_DISTRICT", Name: "Ernakulam", Region: "Kerala", Zone: domain.ZoneTier2,
		PostalCodes: []string{"682001", "682016", "682024", "682030"},
	},
	{
		Code: "KAMRUP_DISTRICT", Name: "Kamrup Metropolitan", Region: "Assam", Zone: domain.ZoneTier3,
		PostalCodes: []string{"781001", "781005", "781028"},
	},
	{
		Code: "LEH_DISTRICT", Name: "Leh", Region: "Ladakh", Zone: domain.ZoneRemote,
		PostalCodes: []string{"194101", "194201"},
	},
}
