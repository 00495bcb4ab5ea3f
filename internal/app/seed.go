package app

import (
	"context"
	"fmt"
	"strings"

	"guest_manual/internal/domain"
)

const DemoSlug = "vibe-modern-rustic-apartment"

const demoGallery = "https://a0.muscache.com/im/pictures/hosting/Hosting-U3RheVN1cHBseUxpc3Rpbmc6MTI5ODQ1NDMxNDU3NzQ2ODgwMw%3D%3D/original/"

// Seed inserts the demo property and its content when the store holds no property yet.
// It reports whether anything was written.
func Seed(ctx context.Context, repo domain.GuideRepository) (bool, error) {
	n, err := repo.CountProperties(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	p := demoProperty()
	if err := repo.SaveProperty(ctx, &p); err != nil {
		return false, fmt.Errorf("seed property: %w", err)
	}
	for _, rec := range demoRecords(p.ID) {
		if _, err := repo.AddRecord(ctx, rec); err != nil {
			return false, fmt.Errorf("seed %s: %w", rec.Kind(), err)
		}
	}
	return true, nil
}

func demoProperty() domain.Property {
	return domain.Property{
		Slug:           DemoSlug,
		Name:           "Vibe: A Modern Rustic Apartment",
		AddressDisplay: "330 Upper Street, N1 2XQ, London, United Kingdom",
		MapURL:         "https://maps.google.com/?q=330+Upper+Street+N1+2XQ+London",
		CheckinTime:    "16:00",
		CheckoutTime:   "11:00",
		WifiSSID:       "VibeFI",
		WifiPassword:   "w3L0V3V!Be!_",
		Parking:        "Parking options can be found on justpark.com.",
		QuietHours:     "22:00–08:00",
		Notes: "Welcome to Vibe, a cozy, modern rustic studio with a mezzanine bed, " +
			"convertible sofa bed, kitchenette, fast Wi-Fi, and a comfy space to relax or work. " +
			"You are perfectly located on Upper Street in Angel & Islington, surrounded by cafés, " +
			"restaurants, nightlife, and quick links to central London.",
		HeroURL: demoGallery + "b80518ff-c448-49ed-bee1-397aad3288c7.jpeg?im_w=1200",
		GalleryURLs: strings.Join([]string{
			demoGallery + "b80518ff-c448-49ed-bee1-397aad3288c7.jpeg?im_w=1200",
			demoGallery + "6c07b7b9-8d71-45f3-a9c8-2bc0e9a80b4a.jpeg?im_w=1200",
			demoGallery + "541f1f35-19a9-4414-b4e7-2bd6564dd94a.jpeg?im_w=1200",
		}, ","),
		InstagramURL: "https://www.instagram.com/empiresproperty_/",
		WhatsappURL:  "+447592249258",
		PhoneNumber:  "+44 7592 249258",
		EmailAddress: "enquiries@empiresproperty.com",
	}
}

func demoRecords(pid int64) []domain.Record {
	var out []domain.Record

	out = append(out, domain.Contact{
		PropID: pid, Role: "Guest support (WhatsApp)", Name: "Guest Support",
		Phone: "+447592249258", WhatsApp: "+447592249258",
	})

	for _, r := range []domain.Rule{
		{
			Title:       "No smoking",
			Description: "Smoking or vaping is not allowed anywhere inside the apartment or building.",
			Penalty:     "Additional cleaning fee and possible loss of deposit.",
			Rationale:   "Smoke damage and odours are difficult and costly to remove for the next guests.",
		},
		{
			Title:       "No parties or events",
			Description: "Parties, events, or loud gatherings are not permitted.",
			Penalty:     "Immediate cancellation of the stay and potential fines from the building.",
			Rationale:   "This is a residential building and we must respect neighbours and building rules.",
		},
		{
			Title:       "Respect quiet hours",
			Description: "Please keep noise to a minimum between 22:00 and 08:00.",
			Penalty:     "Complaints from neighbours may lead to termination of the stay.",
			Rationale:   "Sound travels easily in the building and we want to maintain good relationships with neighbours.",
		},
		{
			Title:       "No extra overnight guests",
			Description: "Only the guests on the booking are allowed to stay overnight.",
			Penalty:     "Additional charges or termination of the stay.",
			Rationale:   "This is for safety, insurance and building regulations.",
		},
		{
			Title:       "Take care of keys and codes",
			Description: "Do not share access codes with anyone outside your group.",
			Penalty:     "Replacement charges if locks or codes must be changed.",
			Rationale:   "To keep you, future guests and the property secure.",
		},
	} {
		r.PropID = pid
		out = append(out, r)
	}

	for _, h := range []domain.HowTo{
		{
			Area: "Whole flat", Appliance: "Wi-Fi",
			How: "To connect, select the Wi-Fi network 'VibeFI' and enter the password 'w3L0V3V!Be!_'. " +
				"You can use this on all of your devices during your stay.",
			Issues: "If you have any issues connecting, try restarting your device and the router if accessible. " +
				"Then contact guest support on WhatsApp if it still does not work.",
		},
		{
			Area: "Living room", Appliance: "TV & Netflix", BrandModel: "Streaming device preconfigured with Netflix",
			How: "The TV is hooked up to a streaming device and is pre-configured to watch Netflix. " +
				"Simply switch on the TV and streaming device, and you will have free access to Netflix.",
			Issues: "If the TV does not turn on, check the power at the wall and that the remote has batteries. " +
				"If Netflix is not loading, check the Wi-Fi connection first, then contact guest support.",
		},
		{
			Area: "Living room", Appliance: "Fan",
			How:    "We have a fan inside the cabinet underneath the TV. Please return it there after use.",
			Issues: "If the fan is not working, check that it is plugged in and the switch is on.",
		},
		{
			Area: "Bedroom / mezzanine", Appliance: "Portable heater",
			How: "There is a heater inside the left cupboard underneath the bed. " +
				"Plug it into a nearby socket and use the controls on the unit to adjust the temperature.",
			Issues: "Please turn the heater off and unplug it when leaving the flat or going to sleep.",
		},
		{
			Area: "Bedroom / wardrobe", Appliance: "Ironing board",
			How:    "We have an ironing board behind the wardrobe. Please return it there after you finish.",
			Issues: "Do not leave hot irons unattended or face-down on surfaces.",
		},
		{
			Area: "Bedroom / wardrobe", Appliance: "Spare pillow & duvet",
			How: "Spare duvet and pillows are inside the wardrobe, as well as a sofa bed mattress " +
				"for extra comfort behind the wardrobe.",
			Issues: "Please keep spare bedding neatly stored in the wardrobe when not in use.",
		},
		{
			Area: "Bedroom / wardrobe", Appliance: "Hair dryer",
			How:    "We have a hairdryer inside the wardrobe.",
			Issues: "Please do not use the hairdryer near water.",
		},
	} {
		h.PropID = pid
		out = append(out, h)
	}

	for _, s := range []domain.CheckinStep{
		{
			Step: 1, Title: "Enter the building",
			Body: "Go to the main entrance at 330 Upper Street, N1 2XQ.\nEnter code C1570Y on the keypad.\nThe door will unlock.",
			Tip:  "Have your booking details handy in case building security ask.",
		},
		{
			Step: 2, Title: "Access the staircase / lift",
			Body: "Head upstairs to the second floor.\nOn your left, you will see a door with a keypad.\n" +
				"Enter code C279ZY and turn the handle clockwise to open.",
			Tip: "Take care with your luggage on the stairs.",
		},
		{
			Step: 3, Title: "Enter the flat",
			Body: "Continue upstairs to Flat 208.\nAt the door, enter the code on the keypad handle. " +
				"This will be the last 4 digits of your phone number.\nPush the handle down to unlock.",
			Tip: "If the code fails, wait a few seconds and try again slowly.",
		},
	} {
		s.PropID = pid
		out = append(out, s)
	}

	for _, s := range []domain.CheckoutStep{
		{
			Step: 1, Title: "General tidy up",
			Body: "Please wash any used dishes or load them into the dishwasher if available.\n" +
				"Put rubbish in the bins and wipe up any major spills.",
			Notes: "You do not need to do a deep clean, our professional cleaners will handle that.",
		},
		{
			Step: 2, Title: "Rubbish and recycling",
			Body: "Place general waste and recycling in the designated bins as described in the house manual " +
				"or at the end of the corridor if applicable.",
			Notes: "If you are unsure where the bins are, contact guest support before you leave.",
		},
		{
			Step: 3, Title: "Lock up and depart",
			Body:  "Make sure all windows are closed and lights are switched off.\nClose the door firmly behind you so it locks.",
			Notes: "Double-check you have all of your belongings and travel documents before leaving.",
		},
	} {
		s.PropID = pid
		out = append(out, s)
	}

	for _, f := range []domain.IssueFlow{
		{
			Category: "Wi-Fi issues",
			TryFirst: "Check that you are connected to the 'VibeFI' network and that the password " +
				"w3L0V3V!Be!_ is entered correctly. Restart your device and the router if possible.",
			WhenToContact: "If Wi-Fi is still not working after restarting, contact guest support.",
			InfoNeeded:    "Tell us which devices are affected and any error messages you see.",
			AutoReply:     "Thanks for letting us know, we will help you get back online as quickly as possible.",
		},
		{
			Category: "Appliance problems",
			TryFirst: "Check that the appliance is plugged in and the power is switched on at the wall. " +
				"For the heater or fan, try a different socket.",
			WhenToContact: "If the appliance still does not work, message guest support.",
			InfoNeeded:    "Let us know which appliance is affected and what you have already tried.",
			AutoReply:     "Thank you, we will advise next steps or arrange assistance.",
		},
		{
			Category: "Noise or neighbours",
			TryFirst: "Kindly try closing windows and doors and lowering your own noise first.",
			WhenToContact: "If there is persistent noise from neighbours or nearby venues late at night, " +
				"contact us with details and times.",
			InfoNeeded: "Explain where the noise is coming from and how long it has been going on.",
			AutoReply:  "Thanks for reporting this, we will see what we can do to help.",
		},
		{
			Category:      "Cleaning or damage",
			TryFirst:      "If you notice anything not up to standard, please send us a quick photo.",
			WhenToContact: "Contact us as soon as you notice the issue, ideally at the start of your stay.",
			InfoNeeded:    "Photos of the problem and a short description of how it affects your stay.",
			AutoReply:     "We are sorry about this, we will review and come back with a solution.",
		},
	} {
		f.PropID = pid
		out = append(out, f)
	}

	for _, e := range []domain.Emergency{
		{
			EType: "Police / Fire / Ambulance", Name: "Emergency services (UK)", Phone: "999",
			When:    "For any life-threatening emergency, serious injury, fire or crime in progress.",
			Address: "330 Upper Street, N1 2XQ, London, United Kingdom",
			Notes:   "State the full address and follow the operator's instructions.",
		},
		{
			EType: "Medical (non-urgent)", Name: "NHS 111", Phone: "111",
			When:    "For non-emergency medical advice when you still need help but it is not life-threatening.",
			Address: "Local services as directed by NHS 111.",
			Notes:   "You can call 111 from any phone in the UK.",
		},
		{
			EType: "Host emergency line", Name: "Guest support (WhatsApp)", Phone: "+447592249258",
			When:    "For urgent issues in the flat such as leaks, power loss or being locked out.",
			Address: "330 Upper Street, N1 2XQ, London, United Kingdom",
			Notes:   "If it is safe to do so, send photos or a short description of the problem.",
		},
	} {
		e.PropID = pid
		out = append(out, e)
	}

	for _, l := range []struct{ category, name, blurb string }{
		{"Restaurant", "Dishoom", "A popular Indian restaurant offering a menu inspired by the Irani cafés of Bombay. " +
			"Famous for its aromatic dishes and inviting ambience."},
		{"Comedy", "Angel Comedy Club", "A local favorite for stand-up comedy, featuring hilarious acts and a welcoming atmosphere. " +
			"Perfect for a night of laughter."},
		{"Theatre", "The Almeida Theatre", "An acclaimed theatre offering a variety of performances from contemporary plays to classic " +
			"adaptations. A cultural gem nearby."},
		{"Café", "The Coffee Works Project", "A specialty coffee shop with a focus on quality brews and friendly service. " +
			"Ideal for coffee lovers looking to kick-start their day."},
		{"Music venue", "O2 Academy Islington", "A vibrant music venue hosting various concerts and live events. " +
			"Check the schedule for thrilling performances during your stay."},
		{"Neighbourhood", "Chalk Farm", "A charming area known for its iconic Roundhouse and scenic canals. " +
			"A great spot for a leisurely walk and local exploration."},
		{"Shopping", "Angel Central", "A vibrant shopping and dining destination with a variety of shops, restaurants and a cinema, " +
			"perfect for an all-day outing."},
		{"Restaurant", "The Breakfast Club", "A cozy diner known for its hearty breakfast options and vibrant atmosphere, " +
			"perfect for starting your day with a delicious meal."},
		{"Market", "Camden Market", "A bustling market offering unique shops, vintage clothes and artisanal foods. " +
			"A great place to explore and pick up some souvenirs."},
		{"Park", "Regents Park", "A beautiful park with stunning gardens, sports facilities and serene walking paths. " +
			"Ideal for a leisurely stroll or picnic."},
		{"Park", "Highbury Fields", "A beautiful park perfect for a leisurely stroll, picnics and jogging. " +
			"Enjoy expansive green spaces and lovely views."},
		{"Pub", "The Drapers Arms", "A charming pub known for its locally sourced food and extensive selection of drinks. " +
			"A great place to unwind and enjoy the local atmosphere."},
		{"Park", "Islington Green", "An iconic green space offering a peaceful retreat in the heart of the city, " +
			"with plenty of benches and a nearby café."},
		{"Shopping street", "Camden Passage", "A hidden gem in Islington, this market street is filled with antique shops, boutiques " +
			"and unique stalls, ideal for shopping enthusiasts."},
		{"Theatre / Pub", "The Old Red Lion Theatre", "A historic pub and theatre space offering intimate performances and a good selection of ales. " +
			"Great for a relaxed evening out."},
		{"Museum", "Islington Museum", "Explore the local history through engaging exhibits at this small yet informative museum. " +
			"A fascinating way to spend an afternoon."},
	} {
		out = append(out, domain.LocalPlace{PropID: pid, Category: l.category, Name: l.name, Blurb: l.blurb})
	}

	for _, f := range []domain.FAQ{
		{
			Question: "What is the Wi-Fi network and password?",
			Answer:   "The Wi-Fi network is 'VibeFI' and the password is 'w3L0V3V!Be!_'.",
			Related:  "Wi-Fi, Internet",
		},
		{
			Question: "How do I check in?",
			Answer: "Check-in is from 4 pm. Use code C1570Y at the main entrance, then C279ZY at the " +
				"second-floor door, and finally the last 4 digits of your phone number on the flat door.",
			Related: "Check-in, Access, Codes",
		},
		{
			Question: "Is early check-in or late check-out possible?",
			Answer: "Standard check-in is from 4 pm and check-out is by 11 am. Early check-in or late " +
				"check-out may be possible depending on cleaning schedules. Message us on WhatsApp " +
				"at +44 7592 249258 and we will do our best.",
			Related: "Check-in, Check-out, Times",
		},
		{
			Question: "Does the apartment have Netflix?",
			Answer:   "Yes, the TV is connected to a streaming device with free access to Netflix for your stay.",
			Related:  "TV, Netflix, Entertainment",
		},
		{
			Question: "Where can I find extra bedding?",
			Answer:   "Spare duvet, pillows and a sofa-bed mattress are all stored inside the wardrobe.",
			Related:  "Bedding, Sofa bed",
		},
		{
			Question: "Is there heating and a fan available?",
			Answer:   "Yes. A fan is in the cabinet under the TV, and a portable heater is in the left cupboard under the bed.",
			Related:  "Heating, Fan, Comfort",
		},
		{
			Question: "Is smoking allowed in the apartment?",
			Answer:   "No, smoking or vaping is not allowed anywhere inside the apartment or building.",
			Related:  "Rules, Smoking",
		},
		{
			Question: "How do I contact support during my stay?",
			Answer: "For anything you need, including codes, questions or issues, message guest support " +
				"on WhatsApp at +44 7592 249258.",
			Related: "Contact, Support",
		},
	} {
		f.PropID = pid
		out = append(out, f)
	}

	return out
}
